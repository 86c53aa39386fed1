package api

import (
	"encoding/json"
	"fmt"
)

// Source tells where a mapped form field takes its value from.
type Source string

const (
	// SourceExpression reads the value from the document at Expression.
	SourceExpression Source = "EXPRESSION"
	// SourceFixedValue uses FixedValue verbatim.
	SourceFixedValue Source = "FIXED_VALUE"
)

func (s Source) Valid() bool {
	return s == SourceExpression || s == SourceFixedValue
}

// UnmarshalJSON rejects unknown sources.
func (s *Source) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !Source(raw).Valid() {
		return fmt.Errorf("unknown mapping source %q", raw)
	}
	*s = Source(raw)
	return nil
}

// Mapping describes how one form field is populated.
// Exactly one of Expression and FixedValue is meaningful, selected by Source.
type Mapping struct {
	// APIName is the form field name. It equals the registry key.
	APIName string `json:"apiName"`
	// Source selects between Expression and FixedValue.
	Source Source `json:"source"`
	// FixedValue is the literal for SourceFixedValue mappings.
	FixedValue any `json:"fixedValue,omitempty"`
	// Expression is the path expression for SourceExpression mappings,
	// empty otherwise.
	Expression string `json:"expression"`
}

// IsFixed reports whether m carries a literal value.
func (m Mapping) IsFixed() bool { return m.Source == SourceFixedValue }
