package validate_test

import (
	"testing"

	"github.com/ephremw/gebeya/pkg/validate"
)

type registerInput struct {
	Name                 string  `json:"name"                  validate:"required,min=2,max=100"`
	Email                string  `json:"email"                 validate:"required,email"`
	Password             string  `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string  `json:"password_confirmation" validate:"confirmed"`
	Method               string  `json:"method"                validate:"required,in=paypal,chapa,cod"`
	Website              string  `json:"website"               validate:"nullable,url"`
	Rating               int     `json:"rating"                validate:"required,gte=1,lte=5"`
	Discount             float64 `json:"discount"              validate:"required,between=0,100"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:                 "Abebe Bikila",
		Email:                "abebe@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
		Method:               "chapa",
		Website:              "", // nullable, allowed to be empty
		Rating:               4,
		Discount:             15,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestRatingBounds(t *testing.T) {
	type in struct {
		Rating int `json:"rating" validate:"required,gte=1,lte=5"`
	}
	if errs := validate.Struct(in{Rating: 6}); !validate.HasErrors(errs) {
		t.Error("expected rating > 5 to fail")
	}
	if errs := validate.Struct(in{Rating: 3}); validate.HasErrors(errs) {
		t.Errorf("expected rating 3 to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Method string `json:"method" validate:"required,in=paypal,chapa,cod"`
	}
	if errs := validate.Struct(in{Method: "stripe"}); !validate.HasErrors(errs) {
		t.Error("expected unsupported payment method to fail")
	}
	if errs := validate.Struct(in{Method: "paypal"}); validate.HasErrors(errs) {
		t.Errorf("expected paypal to pass: %v", errs)
	}
}

func TestInFollowedByAnotherRule(t *testing.T) {
	type in struct {
		Sort string `json:"sort" validate:"nullable,in=price_asc,price_desc,rating,newest,max=20"`
	}
	if errs := validate.Struct(in{Sort: "rating"}); validate.HasErrors(errs) {
		t.Errorf("expected rating to pass: %v", errs)
	}
	if errs := validate.Struct(in{Sort: "bogus"}); !validate.HasErrors(errs) {
		t.Error("expected bogus sort to fail")
	}
}

func TestConfirmedRule(t *testing.T) {
	type in struct {
		Password             string `json:"password"              validate:"required,min=8"`
		PasswordConfirmation string `json:"password_confirmation" validate:"confirmed"`
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "wrong"}); !validate.HasErrors(errs) {
		t.Error("expected confirmation mismatch to fail")
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "secret123"}); validate.HasErrors(errs) {
		t.Errorf("expected matching confirmation to pass: %v", errs)
	}
}

func TestDigitsRule(t *testing.T) {
	type in struct {
		Code string `json:"code" validate:"required,digits=6"`
	}
	if errs := validate.Struct(in{Code: "12345"}); !validate.HasErrors(errs) {
		t.Error("expected 5-digit code to fail")
	}
	if errs := validate.Struct(in{Code: "abc123"}); !validate.HasErrors(errs) {
		t.Error("expected non-numeric code to fail")
	}
	if errs := validate.Struct(in{Code: "482915"}); validate.HasErrors(errs) {
		t.Errorf("expected 6-digit code to pass: %v", errs)
	}
}
