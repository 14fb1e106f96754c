package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"admin-dashboard/internal/api"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func jsonRequest(t *testing.T, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", "/addProduct", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func validProduct() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Pen",
		"price":       10,
		"description": "Blue pen",
		"quantity":    5,
		"category":    "Stationery",
		"image":       "http://x/y.png",
	}
}

// Feature: admin-dashboard, Property 11: Required product fields are enforced
func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("dropping a required field fails validation on that field", prop.ForAll(
		func(dropped string) bool {
			body := validProduct()
			delete(body, dropped)

			var product api.Product
			err := DecodeAndValidate(httptest.NewRecorder(), jsonRequest(t, body), &product)
			if err == nil {
				return false
			}

			for _, fe := range api.FormatValidationErrors(err) {
				if fe.Field == dropped && fe.Message != "" {
					return true
				}
			}
			return false
		},
		gen.OneConstOf("name", "description", "category", "image"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: admin-dashboard, Property 12: Numeric bounds are enforced
func TestProperty_NumericBoundsValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("negative price or quantity is rejected", prop.ForAll(
		func(price float64, quantity int) bool {
			body := validProduct()
			body["price"] = price
			body["quantity"] = quantity

			var product api.Product
			err := DecodeAndValidate(httptest.NewRecorder(), jsonRequest(t, body), &product)

			if price >= 0 && quantity >= 0 {
				return err == nil
			}
			return err != nil
		},
		gen.Float64Range(-100, 100),
		gen.IntRange(-10, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidate_UserPasswordOnlyOnCreate(t *testing.T) {
	body := map[string]interface{}{
		"username": "amy",
		"email":    "amy@example.com",
		"mobile":   "9876543210",
	}

	var create api.User
	err := DecodeAndValidate(httptest.NewRecorder(), jsonRequest(t, body), &create)
	fieldErrors := api.FormatValidationErrors(err)
	if len(fieldErrors) != 1 || fieldErrors[0].Field != "password" {
		t.Fatalf("Expected a password error on create, got %v", fieldErrors)
	}

	var update api.User
	if err := DecodeJSON(httptest.NewRecorder(), jsonRequest(t, body), &update); err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	update.ID = "c0ffee00-0000-0000-0000-000000000000"
	if err := ValidateRequest(&update); err != nil {
		t.Errorf("Password must be optional once an id is set, got %v", err)
	}
}

func TestDecodeAndValidate_MobileFormat(t *testing.T) {
	for mobile, valid := range map[string]bool{
		"9876543210":    true,
		"+441234567890": true,
		"12345":         false,
		"98765-43210":   false,
	} {
		body := map[string]interface{}{
			"username": "amy",
			"email":    "amy@example.com",
			"mobile":   mobile,
			"password": "password1",
		}
		var user api.User
		err := DecodeAndValidate(httptest.NewRecorder(), jsonRequest(t, body), &user)
		if (err == nil) != valid {
			t.Errorf("mobile %q: valid=%v, got err=%v", mobile, valid, err)
		}
	}
}

func TestRespondWithDecodeError(t *testing.T) {
	req := httptest.NewRequest("POST", "/addcategory", strings.NewReader(`{"name":`))
	var category api.Category
	err := DecodeAndValidate(httptest.NewRecorder(), req, &category)
	if !errors.Is(err, ErrMalformedBody) {
		t.Fatalf("Expected ErrMalformedBody, got %v", err)
	}

	w := httptest.NewRecorder()
	RespondWithDecodeError(w, err)
	if w.Code != http.StatusBadRequest || errorMessage(t, w) != "invalid request body" {
		t.Errorf("Unexpected response %d %s", w.Code, w.Body.String())
	}

	err = DecodeAndValidate(httptest.NewRecorder(), jsonRequest(t, map[string]interface{}{"price": 1}), &category)
	w = httptest.NewRecorder()
	RespondWithDecodeError(w, err)
	if w.Code != http.StatusBadRequest || errorMessage(t, w) != "validation failed" {
		t.Errorf("Unexpected response %d %s", w.Code, w.Body.String())
	}
}
