package dto

import (
	"html"
	"reflect"
	"strings"

	"ledger-gateway/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("account_code", validateAccountCode)
		_ = v.RegisterValidation("money", validateMoney)
		_ = v.RegisterValidation("signed_money", validateSignedMoney)
		_ = v.RegisterValidation("date_key", validateDateKey)
	}
}

// validateAccountCode accepts the closed account enum and x_ extensions.
func validateAccountCode(fl validator.FieldLevel) bool {
	_, err := domain.ParseAccount(fl.Field().String())
	return err == nil
}

// validateMoney accepts a non-negative decimal string with at most two
// decimal places.
func validateMoney(fl validator.FieldLevel) bool {
	d, ok := parseMoney(fl.Field().String())
	return ok && !d.IsNegative()
}

// validateSignedMoney is money that may be negative, for statement balances.
func validateSignedMoney(fl validator.FieldLevel) bool {
	_, ok := parseMoney(fl.Field().String())
	return ok
}

func parseMoney(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	if d.Exponent() < -2 {
		return decimal.Zero, false
	}
	return d, true
}

// validateDateKey accepts a YYYY-MM-DD day key.
func validateDateKey(fl validator.FieldLevel) bool {
	_, err := domain.ParseDateKey(fl.Field().String())
	return err == nil
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field (including *string) of a struct pointer.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String()))
			}
		case reflect.Slice:
			for j := 0; j < f.Len(); j++ {
				if f.Index(j).Kind() == reflect.Struct {
					sanitizeFields(f.Index(j))
				}
			}
		}
	}
}

func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
