package config

// ConfigurationError reports a missing or invalid setting. It is fatal at
// startup and always raised before any network call.
type ConfigurationError struct {
	// Key is the environment variable or file the problem comes from.
	Key    string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error: " + e.Key + " " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
