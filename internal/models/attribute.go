package models

import (
	"regexp"
	"strings"
)

// Attribute types
const (
	AttributeTypeText   = "text"
	AttributeTypeSelect = "select"
)

var attributeCodePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Attribute describes a dynamic product property such as color or size
type Attribute struct {
	BaseEntity
	name          string
	code          string
	attributeType string
}

// NewAttribute creates a validated attribute; an empty type defaults to text
func NewAttribute(name, code, attributeType string) (*Attribute, error) {
	a := &Attribute{attributeType: AttributeTypeText}
	if err := a.SetName(name); err != nil {
		return nil, err
	}
	if err := a.SetCode(code); err != nil {
		return nil, err
	}
	if attributeType != "" {
		if err := a.SetType(attributeType); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Attribute) Name() string { return a.name }
func (a *Attribute) Code() string { return a.code }
func (a *Attribute) Type() string { return a.attributeType }
func (a *Attribute) IsSelectType() bool { return a.attributeType == AttributeTypeSelect }
func (a *Attribute) IsTextType() bool { return a.attributeType == AttributeTypeText }

func (a *Attribute) SetName(name string) error {
	v, err := requiredString("attribute", "name", name, 0)
	if err != nil {
		return err
	}
	a.name = v
	return nil
}

func (a *Attribute) SetCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return invalid("attribute", "code", "cannot be empty")
	}
	if !attributeCodePattern.MatchString(code) {
		return invalid("attribute", "code", "must start with a lowercase letter and contain only lowercase letters, digits and underscores")
	}
	a.code = code
	return nil
}

func (a *Attribute) SetType(attributeType string) error {
	switch attributeType {
	case AttributeTypeText, AttributeTypeSelect:
		a.attributeType = attributeType
		return nil
	}
	return invalid("attribute", "type", "must be %q or %q", AttributeTypeText, AttributeTypeSelect)
}

// AttributeOption is one allowed value of a select attribute
type AttributeOption struct {
	BaseEntity
	attributeID  int64
	value        string
	displayOrder int
}

func NewAttributeOption(attributeID int64, value string, displayOrder int) (*AttributeOption, error) {
	o := &AttributeOption{attributeID: attributeID, displayOrder: displayOrder}
	if err := o.SetValue(value); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *AttributeOption) AttributeID() int64 { return o.attributeID }
func (o *AttributeOption) Value() string { return o.value }
func (o *AttributeOption) DisplayOrder() int { return o.displayOrder }

func (o *AttributeOption) SetValue(value string) error {
	v, err := requiredString("attribute_option", "value", value, 0)
	if err != nil {
		return err
	}
	o.value = v
	return nil
}

// AttributeValue is one EAV row binding a value to a product attribute
type AttributeValue struct {
	BaseEntity
	productID     int64
	attributeID   int64
	value         string
	attributeName *string
	attributeCode *string
}

func NewAttributeValue(productID, attributeID int64, value string) *AttributeValue {
	return &AttributeValue{
		productID:   productID,
		attributeID: attributeID,
		value:       strings.TrimSpace(value),
	}
}

func (v *AttributeValue) ProductID() int64 { return v.productID }
func (v *AttributeValue) AttributeID() int64 { return v.attributeID }
func (v *AttributeValue) Value() string { return v.value }
func (v *AttributeValue) AttributeName() *string { return v.attributeName }
func (v *AttributeValue) AttributeCode() *string { return v.attributeCode }

// SetAttributeInfo records the attribute name and code loaded through a join
func (v *AttributeValue) SetAttributeInfo(name, code string) {
	v.attributeName = &name
	v.attributeCode = &code
}

// AttributeSet groups the attributes that apply to a kind of product
type AttributeSet struct {
	BaseEntity
	name string
}

func NewAttributeSet(name string) (*AttributeSet, error) {
	s := &AttributeSet{}
	if err := s.SetName(name); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AttributeSet) Name() string { return s.name }

func (s *AttributeSet) SetName(name string) error {
	v, err := requiredString("attribute_set", "name", name, 0)
	if err != nil {
		return err
	}
	s.name = v
	return nil
}
