// Package errors provides the structured error taxonomy for vogsphere.
//
// Every failure surfaced to the user carries a code that says which stage
// of a run produced it:
//
//   - CONFIGURATION: a required connection field is missing for the chosen
//     provider. Raised before any network attempt.
//   - EXTRACTION: the page content could not be obtained.
//   - TRANSPORT: the provider could not be reached or answered with a
//     non-2xx status.
//   - PROVIDER_RESPONSE: a 2xx reply whose body matches no known shape.
//
// # Usage
//
// Create a new error:
//
//	err := errors.Configuration("Azure API Version is required.")
//
// Attach diagnostics:
//
//	err := errors.Transport("Agent Connection Error (500 Internal Server Error): boom",
//	    errors.WithMetadata("status_code", "500"))
//
// Check the stage that failed:
//
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//	    // ask the user to fix the profile
//	}
//
// Nothing in vogsphere retries automatically. The error string is shown
// verbatim and the user may correct the profile and run again.
package errors
