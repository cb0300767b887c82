package usecase

import (
	"regexp"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var (
	nonDigits         = regexp.MustCompile(`\D`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postalCodePattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)
)

func OnlyDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ValidateClientForm checks the migration form in a fixed order and stops at the first failure.
func ValidateClientForm(data ClientFormData) error {
	if strings.TrimSpace(data.Name) == "" {
		return ValidationError{"name", "is required"}
	}

	if strings.TrimSpace(data.TaxID) == "" {
		return ValidationError{"tax_id", "is required"}
	}
	if !IsValidTaxID(data.Type, data.TaxID) {
		return ValidationError{"tax_id", "is invalid"}
	}

	if !IsValidEmail(data.Email) {
		return ValidationError{"email", "is invalid"}
	}

	if strings.TrimSpace(data.Cellphone) == "" {
		return ValidationError{"cellphone", "is required"}
	}

	if !IsValidPostalCode(data.PostalCode) {
		return ValidationError{"postal_code", "must be a valid CEP (XXXXX-XXX)"}
	}

	return nil
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func IsValidPostalCode(cep string) bool {
	return postalCodePattern.MatchString(strings.TrimSpace(cep))
}

// InferClientType picks the client type from the tax id length when none was chosen.
func InferClientType(t entity.ClientType, taxID string) entity.ClientType {
	if t != "" {
		return t
	}
	if len(OnlyDigits(taxID)) == 14 {
		return entity.ClientOrganization
	}
	return entity.ClientIndividual
}

func IsValidTaxID(t entity.ClientType, taxID string) bool {
	switch InferClientType(t, taxID) {
	case entity.ClientOrganization:
		return IsValidCNPJ(taxID)
	default:
		return IsValidCPF(taxID)
	}
}

func IsValidCPF(cpf string) bool {
	d := toDigits(OnlyDigits(cpf))
	if len(d) != 11 || allEqual(d) {
		return false
	}

	return checkDigit(d[:9], 10) == d[9] && checkDigit(d[:10], 11) == d[10]
}

func IsValidCNPJ(cnpj string) bool {
	d := toDigits(OnlyDigits(cnpj))
	if len(d) != 14 || allEqual(d) {
		return false
	}

	first := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	second := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

	return cnpjDigit(d[:12], first) == d[12] && cnpjDigit(d[:13], second) == d[13]
}

// checkDigit is the CPF mod-11 digit with weights starting at weight and descending.
func checkDigit(d []int, weight int) int {
	sum := 0
	for i, v := range d {
		sum += v * (weight - i)
	}
	r := (sum * 10) % 11
	if r == 10 {
		return 0
	}
	return r
}

func cnpjDigit(d []int, weights []int) int {
	sum := 0
	for i, v := range d {
		sum += v * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func toDigits(s string) []int {
	out := make([]int, len(s))
	for i := range s {
		out[i] = int(s[i] - '0')
	}
	return out
}

func allEqual(d []int) bool {
	for _, v := range d[1:] {
		if v != d[0] {
			return false
		}
	}
	return true
}
