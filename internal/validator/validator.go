// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ptrwatch/internal/ptr"
)

// firstFilingYear is the earliest year the disclosure site lists filings for.
const firstFilingYear = 2008

var assetTagRegex = regexp.MustCompile(`^[A-Za-z]{2}$`)

// validStates contains the USPS codes of states, DC and territories that
// elect House members or delegates.
var validStates = map[string]bool{
	"AK": true, "AL": true, "AR": true, "AS": true, "AZ": true,
	"CA": true, "CO": true, "CT": true, "DC": true, "DE": true,
	"FL": true, "GA": true, "GU": true, "HI": true, "IA": true,
	"ID": true, "IL": true, "IN": true, "KS": true, "KY": true,
	"LA": true, "MA": true, "MD": true, "ME": true, "MI": true,
	"MN": true, "MO": true, "MP": true, "MS": true, "MT": true,
	"NC": true, "ND": true, "NE": true, "NH": true, "NJ": true,
	"NM": true, "NV": true, "NY": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "PR": true, "RI": true, "SC": true,
	"SD": true, "TN": true, "TX": true, "UT": true, "VA": true,
	"VI": true, "VT": true, "WA": true, "WI": true, "WV": true,
	"WY": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers all custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("filing_year", validateFilingYear)
	_ = v.RegisterValidation("asset_tag", validateAssetTag)
	_ = v.RegisterValidation("us_state", validateUSState)
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return ptr.TransactionType(fl.Field().String()).Valid()
}

func validateFilingYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= firstFilingYear && year <= int64(time.Now().Year()+1)
}

func validateAssetTag(fl validator.FieldLevel) bool {
	return assetTagRegex.MatchString(fl.Field().String())
}

func validateUSState(fl validator.FieldLevel) bool {
	return validStates[fl.Field().String()]
}
