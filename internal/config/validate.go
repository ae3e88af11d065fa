package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks the gateway configuration using struct tags and
// cross-field rules.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if c.Chat.MinDelay > c.Chat.MaxDelay {
		return fmt.Errorf("chat: min_delay (%s) must not exceed max_delay (%s)", c.Chat.MinDelay, c.Chat.MaxDelay)
	}
	if c.Tracing.Enabled && c.Tracing.Exporter == "http" && c.Tracing.Endpoint == "" {
		return errors.New("tracing: endpoint is required for the http exporter")
	}
	return nil
}

// ValidateRAG checks the settings ragprobe needs before it talks to the API.
func (c *Config) ValidateRAG() error {
	v := validator.New()

	var missing []string
	if c.RAG.AccountID == "" {
		missing = append(missing, "rag.account_id")
	}
	if c.RAG.APIToken == "" {
		missing = append(missing, "rag.api_token")
	}
	if c.RAG.Name == "" {
		missing = append(missing, "rag.name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	if err := v.Var(c.RAG.APIBaseURL, "required,url"); err != nil {
		return fmt.Errorf("rag.api_base_url must be a valid URL: %q", c.RAG.APIBaseURL)
	}
	if c.RAG.ScoreThreshold < 0 || c.RAG.ScoreThreshold > 1 {
		return fmt.Errorf("rag.score_threshold must be within [0, 1], got %v", c.RAG.ScoreThreshold)
	}
	return nil
}

// formatValidationErrors converts validator.ValidationErrors to readable messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s items", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be a valid host:port", field)
	case "gt", "gte", "lte":
		return fmt.Sprintf("%s is out of range (%s %s)", field, e.Tag(), e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}
