// Package validator builds request checks from small Rule values.
//
// Each rule pairs a Check func with the ValidationError it produces. Apply
// runs every rule and returns ValidationErrors when any fail, so one call
// reports all offending fields:
//
//	err := validator.Apply(
//	    validator.Required("email", in.Email),
//	    validator.Required("password", in.Password),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    // verrs.Map() renders as field -> messages
//	}
package validator
