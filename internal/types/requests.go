package types

import (
	"github.com/go-playground/validator/v10"
)

// AnalyzeRequest asks for a single-page traffic and intent analysis.
type AnalyzeRequest struct {
	URL          string `json:"url" validate:"required,url"`
	SiteType     string `json:"site_type,omitempty" validate:"sitetype"`
	BusinessType string `json:"business_type,omitempty" validate:"businesstype"`
}

// SiteMapRequest asks for a prioritized page map of a domain.
type SiteMapRequest struct {
	Domain  string `json:"domain" validate:"required"`
	Fetch   bool   `json:"fetch"`
	MaxURLs int    `json:"max_urls,omitempty" validate:"gte=0,lte=1000"`
}

// NewValidator returns a validator with the site and business type rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("sitetype", func(fl validator.FieldLevel) bool {
		_, ok := ParseSiteType(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("businesstype", func(fl validator.FieldLevel) bool {
		_, ok := ParseBusinessType(fl.Field().String())
		return ok
	})
	return v
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	return NewValidator().Struct(r)
}

// Validate validates the SiteMapRequest using the validator.
func (r *SiteMapRequest) Validate() error {
	return NewValidator().Struct(r)
}

// Site returns the canonical site type; unknown values map to no correction.
func (r *AnalyzeRequest) Site() SiteType {
	st, _ := ParseSiteType(r.SiteType)
	return st
}

// Business returns the canonical business type.
func (r *AnalyzeRequest) Business() BusinessType {
	bt, _ := ParseBusinessType(r.BusinessType)
	return bt
}
