package models

// ProductImage is a picture attached to a product
type ProductImage struct {
	BaseEntity
	productID int64
	url       string
	altText   *string
	position  int
	isPrimary bool
}

// NewProductImage creates a validated image for productID
func NewProductImage(productID int64, url string) (*ProductImage, error) {
	img := &ProductImage{productID: productID}
	if err := img.SetURL(url); err != nil {
		return nil, err
	}
	return img, nil
}

func (i *ProductImage) ProductID() int64 { return i.productID }
func (i *ProductImage) URL() string { return i.url }
func (i *ProductImage) AltText() *string { return i.altText }
func (i *ProductImage) Position() int { return i.position }
func (i *ProductImage) IsPrimary() bool { return i.isPrimary }
func (i *ProductImage) SetAltText(s *string) { i.altText = optionalString(s) }
func (i *ProductImage) SetPosition(position int) { i.position = position }
func (i *ProductImage) SetPrimary(primary bool) { i.isPrimary = primary }

func (i *ProductImage) SetURL(url string) error {
	v, err := requiredString("product_image", "url", url, 0)
	if err != nil {
		return err
	}
	i.url = v
	return nil
}

// PrimaryImage picks the image flagged primary, falling back to the first one.
// images are expected in position order.
func PrimaryImage(images []*ProductImage) *ProductImage {
	for _, img := range images {
		if img.isPrimary {
			return img
		}
	}
	if len(images) > 0 {
		return images[0]
	}
	return nil
}
