// Package validation provides input validation for request structs.
//
// Struct tag validation uses go-playground/validator with json field names
// in messages and supports project-specific rules registered by name:
//
//	validation.RegisterRule("jobname", func(s string) bool { ... }, "must be a valid job name")
//
//	type StartRequest struct {
//	    JobName string `json:"jobName" validate:"required,jobname"`
//	}
//	err := validation.Validate(req)
//
// Programmatic validation collects field errors with a fluent API:
//
//	err := validation.New().
//	    Required("jobName", name).
//	    MaxLength("jobName", name, 200).
//	    Validate()
//
// Both return *errors.AppError with code VALIDATION_ERROR and the failing
// fields under Details["fields"].
package validation
