package config

import (
	"strings"

	pkgerrors "github.com/kevin07696/sagepay-gateway/pkg/errors"
)

// Gateway setting keys, as stored by the host platform
const (
	SettingVendorName          = "vendor_name"
	SettingIntegrationKey      = "integration_key"
	SettingIntegrationPassword = "integration_password"
	SettingDeveloperMode       = "developer_mode"
)

// Validation messages shown to the merchant
const (
	msgVendorNameEmpty          = "Please enter your Sage Pay vendor name."
	msgIntegrationKeyEmpty      = "Please enter your Sage Pay integration key."
	msgIntegrationPasswordEmpty = "Please enter your Sage Pay integration password."
	msgDeveloperModeInvalid     = `Developer mode must be set to "true" if given.`
)

// ValidateSettings checks gateway settings submitted by the merchant.
// The returned copy always carries developer_mode ("false" when it was not
// given) and is returned even when validation fails, so the form can be
// redisplayed with the submitted values.
func ValidateSettings(meta map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	if _, ok := out[SettingDeveloperMode]; !ok {
		out[SettingDeveloperMode] = "false"
	}

	var errs pkgerrors.ValidationErrors
	required := []struct {
		key     string
		message string
	}{
		{SettingVendorName, msgVendorNameEmpty},
		{SettingIntegrationKey, msgIntegrationKeyEmpty},
		{SettingIntegrationPassword, msgIntegrationPasswordEmpty},
	}
	for _, r := range required {
		if strings.TrimSpace(out[r.key]) == "" {
			errs = append(errs, pkgerrors.NewValidationError(r.key, r.message))
		}
	}

	if mode := out[SettingDeveloperMode]; mode != "true" && mode != "false" {
		errs = append(errs, pkgerrors.NewValidationError(SettingDeveloperMode, msgDeveloperModeInvalid))
	}

	return out, errs.ErrOrNil()
}

// EncryptableFields lists the settings the host must encrypt at rest
func EncryptableFields() []string {
	return []string{SettingIntegrationKey, SettingIntegrationPassword}
}
