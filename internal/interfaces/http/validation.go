package http

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sales-dashboard-api/internal/application/dto"
	"github.com/jhoicas/sales-dashboard-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// decimal.Decimal se valida como float64 para que gt=0 funcione.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			fl, _ := d.Float64()
			return fl
		}
		return nil
	}, decimal.Decimal{})
	// Los errores usan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateProductAmounts, dto.ProductRequest{})
	v.RegisterStructValidation(validateSaleAmounts, dto.SaleRequest{})
	return v
}

// Límites de las columnas NUMERIC(12,2) y NUMERIC(14,2).
var (
	maxPrice       = decimal.New(1, 10)
	maxTotalAmount = decimal.New(1, 12)
)

func validateProductAmounts(sl validator.StructLevel) {
	in := sl.Current().Interface().(dto.ProductRequest)
	reportAmount(sl, in.Price, "price", "Price", maxPrice)
}

func validateSaleAmounts(sl validator.StructLevel) {
	in := sl.Current().Interface().(dto.SaleRequest)
	reportAmount(sl, in.TotalAmount, "totalAmount", "TotalAmount", maxTotalAmount)
}

// reportAmount exige como mucho dos decimales y un valor menor que limit.
// Los nulos y no positivos ya los reportan required y gt.
func reportAmount(sl validator.StructLevel, d *decimal.Decimal, field, structField string, limit decimal.Decimal) {
	if d == nil || !d.IsPositive() {
		return
	}
	if !d.Equal(d.Round(2)) {
		sl.ReportError(*d, field, structField, "scale", "2")
		return
	}
	if d.GreaterThanOrEqual(limit) {
		sl.ReportError(*d, field, structField, "lt", limit.String())
	}
}

// fieldMessages mensajes del contrato por campo JSON y tag.
var fieldMessages = map[string]string{
	"productId.required":   "Product ID is required",
	"quantity.required":    "Quantity is required",
	"quantity.gt":          "Quantity must be positive",
	"quantity.lte":         "Quantity must be at most 2147483647",
	"totalAmount.required": "Total amount is required",
	"totalAmount.gt":       "Total amount must be positive",
	"totalAmount.scale":    "Total amount must have at most 2 decimal places",
	"totalAmount.lt":       "Total amount must be less than 1000000000000",
	"saleDate.required":    "Sale date is required",
	"name.required":        "Name is required",
	"category.required":    "Category is required",
	"price.required":       "Price is required",
	"price.gt":             "Price must be positive",
	"price.scale":          "Price must have at most 2 decimal places",
	"price.lt":             "Price must be less than 10000000000",
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gt":
		return fe.Field() + " must be positive"
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}

// bindAndValidate parsea el cuerpo JSON en out y aplica las reglas `validate`.
// Devuelve un *domain.ValidationError con todos los campos inválidos.
func bindAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &domain.ValidationError{
			Message: "Malformed request body",
			Fields:  map[string]string{"body": err.Error()},
		}
	}
	return validateStruct(out)
}

func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validar: %w", err)
	}
	out := &domain.ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		msg := messageFor(fe)
		if out.Message == "" {
			out.Message = msg
		}
		if _, seen := out.Fields[fe.Field()]; !seen {
			out.Fields[fe.Field()] = msg
		}
	}
	return out
}

// parseID lee el parámetro :id como entero positivo.
func parseID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "id must be a positive integer: "+raw)
	}
	return id, nil
}
