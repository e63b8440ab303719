package errors_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/irmakh/gemini-rpg/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) fields(err error) map[string][]string {
	s.Require().Error(err)
	s.Require().True(errors.IsInvalidArgument(err))
	return errors.GetMeta(err)["validation_errors"].(map[string][]string)
}

func (s *ValidationTestSuite) TestBuilder() {
	vb := errors.NewValidationBuilder()
	vb.RequiredField("Engine").
		InvalidField("EffectTimeout", "must not be negative").
		Field("OpenAIAPIKey", "is required for openai content mode")

	err := vb.Build()
	fields := s.fields(err)
	s.Equal([]string{"is required"}, fields["Engine"])
	s.Equal([]string{"is invalid: must not be negative"}, fields["EffectTimeout"])
	s.Contains(err.Error(), "OpenAIAPIKey: is required for openai content mode")
}

func (s *ValidationTestSuite) TestBuilderNoErrors() {
	s.NoError(errors.NewValidationBuilder().Build())
}

func (s *ValidationTestSuite) TestValidateRequired() {
	testCases := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{"valid value", "Aria", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
		{"valid with spaces", "  Aria  ", false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			errors.ValidateRequired("name", tc.value, vb)
			if tc.shouldErr {
				s.Error(vb.Build())
			} else {
				s.NoError(vb.Build())
			}
		})
	}
}

func (s *ValidationTestSuite) TestValidateRange() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("GRPCPort", 70000, 0, 65535, vb)
	errors.ValidateRange("PoolSize", 10, 0, 100, vb)

	fields := s.fields(vb.Build())
	s.Equal([]string{"must be between 0 and 65535"}, fields["GRPCPort"])
	s.NotContains(fields, "PoolSize")
}

func (s *ValidationTestSuite) TestValidateEnum() {
	type class string
	allowed := []class{"Warrior", "Mage", "Rogue"}

	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("class", class("Bard"), allowed, vb)
	errors.ValidateEnum("other", class("Mage"), allowed, vb)

	fields := s.fields(vb.Build())
	s.Equal([]string{"must be one of: Warrior, Mage, Rogue"}, fields["class"])
	s.NotContains(fields, "other")
}

func (s *ValidationTestSuite) TestValidateKey() {
	testCases := []struct {
		name    string
		value   string
		message string
	}{
		{name: "empty", value: "", message: "is required"},
		{name: "too long", value: strings.Repeat("a", 9), message: "must be no more than 8 characters"},
		{name: "colon", value: "a:b", message: "is invalid: must not contain colons or whitespace"},
		{name: "space", value: "a b", message: "is invalid: must not contain colons or whitespace"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			errors.ValidateKey("slot", tc.value, 8, vb)
			s.Equal([]string{tc.message}, s.fields(vb.Build())["slot"])
		})
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateKey("slot", "autosave_1", 16, vb)
	s.NoError(vb.Build())
}
