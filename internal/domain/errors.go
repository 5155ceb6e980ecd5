package domain

import "errors"

var (
	ErrEmptyName         = errors.New("name must not be empty")
	ErrNameTooLong       = errors.New("name must be at most 64 characters")
	ErrInvalidBirthDate  = errors.New("birth_date must be a valid YYYY-MM-DD date")
	ErrNoCredential      = errors.New("no usable API credential")
	ErrOracleDisabled    = errors.New("remote oracle disabled")
	ErrUpstreamLLM       = errors.New("upstream LLM failure")
	ErrInvalidLLMJSON    = errors.New("LLM returned invalid JSON after retry")
	ErrIncompleteFortune = errors.New("fortune is missing required fields")
)
