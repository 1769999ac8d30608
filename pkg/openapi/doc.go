// Package openapi derives form rules from OpenAPI request-body schemas.
//
// Top-level properties of the JSON request body become fields: "required"
// maps to FieldRule.Required, minLength/maxLength/pattern map directly, and the
// formats "email" and "uri" resolve to the registry checks of the same
// purpose. Extra checks can be listed per property under the
// x-formkit-validators extension.
package openapi
