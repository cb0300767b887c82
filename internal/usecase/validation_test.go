package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestIsValidCPF(t *testing.T) {
	assert.True(t, IsValidCPF("529.982.247-25"))
	assert.True(t, IsValidCPF("52998224725"))

	assert.False(t, IsValidCPF("529.982.247-24"), "wrong check digit")
	assert.False(t, IsValidCPF("111.111.111-11"), "repeated digits")
	assert.False(t, IsValidCPF("5299822472"), "too short")
	assert.False(t, IsValidCPF(""))
}

func TestIsValidCNPJ(t *testing.T) {
	assert.True(t, IsValidCNPJ("11.222.333/0001-81"))
	assert.True(t, IsValidCNPJ("11222333000181"))

	assert.False(t, IsValidCNPJ("11.222.333/0001-82"))
	assert.False(t, IsValidCNPJ("00.000.000/0000-00"))
	assert.False(t, IsValidCNPJ("1122233300018"))
}

func TestIsValidTaxIDInfersType(t *testing.T) {
	assert.True(t, IsValidTaxID("", "11.222.333/0001-81"))
	assert.True(t, IsValidTaxID("", "529.982.247-25"))
	assert.False(t, IsValidTaxID(entity.ClientIndividual, "11.222.333/0001-81"))
	assert.False(t, IsValidTaxID(entity.ClientOrganization, "529.982.247-25"))
}

func TestIsValidPostalCode(t *testing.T) {
	assert.True(t, IsValidPostalCode("01001-000"))
	assert.True(t, IsValidPostalCode("01001000"))

	assert.False(t, IsValidPostalCode("0100100"))
	assert.False(t, IsValidPostalCode("0100-1000"))
	assert.False(t, IsValidPostalCode("01001.000"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ana@empresa.com.br"))
	assert.False(t, IsValidEmail("ana@empresa"))
	assert.False(t, IsValidEmail("ana empresa@x.com"))
	assert.False(t, IsValidEmail(""))
}

func validForm() ClientFormData {
	return ClientFormData{
		Name:       "Alice Silva",
		TaxID:      "529.982.247-25",
		Email:      "alice@example.com",
		Phone:      "(11) 3333-4444",
		Cellphone:  "(11) 99999-8888",
		PostalCode: "01001-000",
	}
}

func TestValidateClientFormOrder(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ClientFormData)
		wantField string
		wantMsg   string
	}{
		{"valid", func(*ClientFormData) {}, "", ""},
		{"name wins over everything", func(d *ClientFormData) {
			*d = ClientFormData{}
		}, "name", "is required"},
		{"tax id required", func(d *ClientFormData) {
			d.TaxID = "  "
			d.Email = "bad"
		}, "tax_id", "is required"},
		{"tax id checksum", func(d *ClientFormData) { d.TaxID = "529.982.247-24" }, "tax_id", "is invalid"},
		{"email", func(d *ClientFormData) {
			d.Email = "alice"
			d.Cellphone = ""
		}, "email", "is invalid"},
		{"cellphone", func(d *ClientFormData) {
			d.Cellphone = ""
			d.PostalCode = ""
		}, "cellphone", "is required"},
		{"postal code", func(d *ClientFormData) { d.PostalCode = "0100100" }, "postal_code", "must be a valid CEP (XXXXX-XXX)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validForm()
			tt.mutate(&d)

			err := ValidateClientForm(d)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var vErr ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, tt.wantMsg, vErr.Message)
		})
	}
}
