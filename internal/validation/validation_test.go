package validation

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, body string) Input {
	t.Helper()
	in, err := FromJSON(strings.NewReader(body))
	require.NoError(t, err)
	return in
}

var checkoutSchema = Schema{Rules: []Rule{
	{Field: "address_id", Type: UUID, RequiredWithout: "new_address"},
	{Field: "new_address", Type: Object, RequiredWithout: "address_id"},
	{Field: "new_address.address", Type: String, RequiredWith: "new_address", Max: Limit(255)},
	{Field: "new_address.city", Type: String, RequiredWith: "new_address", Max: Limit(255)},
	{Field: "payment_method", Type: String, In: []string{"credit_card", "paypal"}},
}}

func TestSchema_RequiredWithout(t *testing.T) {
	err := checkoutSchema.Validate(mustJSON(t, `{}`))
	require.NotNil(t, err)
	assert.Contains(t, err.Fields, "address_id")
	assert.Contains(t, err.Fields, "new_address")
	assert.Equal(t, "The address id field is required. (and 1 more error)", err.Message)

	err = checkoutSchema.Validate(mustJSON(t, `{"address_id":"7c9e6679-7425-40de-944b-e07fc1f90ae7"}`))
	assert.Nil(t, err)
}

func TestSchema_RequiredWithNested(t *testing.T) {
	err := checkoutSchema.Validate(mustJSON(t, `{"new_address":{"address":"Main 1"}}`))
	require.NotNil(t, err)
	assert.Equal(t, []string{"The new address.city field is required."}, err.Fields["new_address.city"])
	assert.NotContains(t, err.Fields, "address_id")
}

func TestSchema_InAndUUID(t *testing.T) {
	err := checkoutSchema.Validate(mustJSON(t, `{"address_id":"999","payment_method":"bitcoin"}`))
	require.NotNil(t, err)
	assert.Equal(t, []string{"The selected address id is invalid."}, err.Fields["address_id"])
	assert.Equal(t, []string{"The selected payment method is invalid."}, err.Fields["payment_method"])
}

func TestSchema_IntegerBounds(t *testing.T) {
	s := Schema{Rules: []Rule{
		{Field: "quantity", Type: Integer, Required: true, Min: Limit(1), Max: Limit(100)},
	}}

	tests := []struct {
		name string
		body string
		want string
	}{
		{"ok", `{"quantity":3}`, ""},
		{"numeric string", `{"quantity":"7"}`, ""},
		{"too small", `{"quantity":0}`, "The quantity field must be at least 1."},
		{"too large", `{"quantity":101}`, "The quantity field must not be greater than 100."},
		{"fraction", `{"quantity":1.5}`, "The quantity field must be an integer."},
		{"missing", `{}`, "The quantity field is required."},
		{"null", `{"quantity":null}`, "The quantity field is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(mustJSON(t, tt.body))
			if tt.want == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, []string{tt.want}, err.Fields["quantity"])
		})
	}
}

func TestSchema_StringRulesAndConfirmed(t *testing.T) {
	s := Schema{Rules: []Rule{
		{Field: "email", Type: Email, Required: true, Max: Limit(255)},
		{Field: "password", Type: String, Required: true, Min: Limit(8), Confirmed: true},
	}}

	err := s.Validate(mustJSON(t, `{"email":"not-an-email","password":"short","password_confirmation":"short"}`))
	require.NotNil(t, err)
	assert.Equal(t, []string{"The email field must be a valid email address."}, err.Fields["email"])
	assert.Equal(t, []string{"The password field must be at least 8 characters."}, err.Fields["password"])

	err = s.Validate(mustJSON(t, `{"email":"a@b.io","password":"password123","password_confirmation":"password124"}`))
	require.NotNil(t, err)
	assert.Equal(t, []string{"The password field confirmation does not match."}, err.Fields["password"])

	assert.Nil(t, s.Validate(mustJSON(t, `{"email":"a@b.io","password":"password123","password_confirmation":"password123"}`)))
}

func TestSchema_Strict(t *testing.T) {
	s := Schema{Strict: true, Rules: []Rule{
		{Field: "status", Type: String, Required: true, In: []string{"pending", "paid"}},
	}}

	err := s.Validate(mustJSON(t, `{"status":"paid","total":0}`))
	require.NotNil(t, err)
	assert.Equal(t, []string{"The total field is prohibited."}, err.Fields["total"])

	assert.Nil(t, s.Validate(mustJSON(t, `{"status":"paid"}`)))
}

func TestSchema_Numeric(t *testing.T) {
	s := Schema{Rules: []Rule{{Field: "price", Type: Numeric, Required: true, Min: Limit(0)}}}

	assert.Nil(t, s.Validate(mustJSON(t, `{"price":"19.99"}`)))
	assert.Nil(t, s.Validate(mustJSON(t, `{"price":0}`)))

	err := s.Validate(mustJSON(t, `{"price":-1}`))
	require.NotNil(t, err)
	assert.Equal(t, []string{"The price field must be at least 0."}, err.Fields["price"])

	err = s.Validate(mustJSON(t, `{"price":"abc"}`))
	require.NotNil(t, err)
	assert.Equal(t, []string{"The price field must be a number."}, err.Fields["price"])
}

func TestInputAccessors(t *testing.T) {
	in := mustJSON(t, `{"name":"  Tea ","qty":"4","price":12.5,"nested":{"city":"Paris"},"blank":""}`)

	assert.Equal(t, "Tea", in.String("name"))
	assert.Equal(t, 4, in.Int("qty"))
	assert.Equal(t, "12.5", in.Decimal("price").String())
	assert.Equal(t, "Paris", in.String("nested.city"))
	assert.Nil(t, in.StringPtr("blank"))
	assert.True(t, in.Has("blank"))
	assert.False(t, in.Filled("blank"))
	assert.False(t, in.Has("missing.path"))
}

func TestFromJSON_Malformed(t *testing.T) {
	_, err := FromJSON(strings.NewReader(`{"a":`))
	assert.ErrorIs(t, err, ErrMalformedBody)

	in, err := FromJSON(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, in)
}

func TestFromValues_Brackets(t *testing.T) {
	in := FromValues(url.Values{
		"new_address[city]":    {"Lyon"},
		"new_address[country]": {"FR"},
		"payment_method":       {"paypal"},
	})

	assert.Equal(t, "Lyon", in.String("new_address.city"))
	assert.Equal(t, "FR", in.String("new_address.country"))
	assert.Equal(t, "paypal", in.String("payment_method"))
}

func TestFromRequest_Form(t *testing.T) {
	form := url.Values{"name": {"Mugs"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	in, err := FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "Mugs", in.String("name"))
}

func TestFromRequest_BodyLimit(t *testing.T) {
	big := `{"name":"` + strings.Repeat("a", MaxJSONBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")

	_, err := FromRequest(req)
	assert.ErrorIs(t, err, ErrBodyTooLarge)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Mugs"}`))
	in, err := FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "Mugs", in.String("name"))
}

func TestInput_Present(t *testing.T) {
	in := mustJSON(t, `{"description":null}`)

	assert.True(t, in.Present("description"))
	assert.False(t, in.Has("description"))
	assert.False(t, in.Present("category_id"))
}
