package parser

import "fmt"

/*

This is the equivalent of type-checking the untyped tree.
Not every parsed tree is a valid one.

Grammar rule: identifier.key operator value

If only a key is given, the identifier is "attribute": report columns
are addressed directly (file_name, file_size, ...), while mediainfo
properties go through "property.<key>", e.g. property.format.

*/

type ValidIdentifier int

const (
	Attribute ValidIdentifier = iota
	Property
)

func (v ValidIdentifier) String() string {
	switch v {
	case Attribute:
		return "attribute"
	case Property:
		return "property"
	default:
		return "unknown"
	}
}

type ValidCompareExpr struct {
	Identifier ValidIdentifier
	Key        string
	Operator   OperatorKind
	Value      interface{}
}

type ValidationError struct {
	message string
}

func NewValidationError(format string, a ...interface{}) *ValidationError {
	return &ValidationError{message: fmt.Sprintf(format, a...)}
}

func (e *ValidationError) Error() string {
	return e.message
}

const (
	attributeIdentifier = "attribute"
	propertyIdentifier  = "property"
)

// Report columns reachable from a filter, and which of them number-compare.
var searchableAttributes = []string{
	"file_name",
	"file_unique_id",
	"file_size",
	"mime_type",
	"media_type",
	"chat_id",
	"telegraph_url",
	"created",
}

var numericAttributes = map[string]bool{
	"file_size": true,
	"chat_id":   true,
	"created":   true,
}

func parseValidIdentifier(identifier string) (ValidIdentifier, error) {
	switch identifier {
	case "", attributeIdentifier, "attributes", "attr", "report":
		return Attribute, nil
	case propertyIdentifier, "properties", "prop", "props", "media":
		return Property, nil
	default:
		return -1, NewValidationError("invalid identifier %q", identifier)
	}
}

func parseAttributeKey(key string) (string, error) {
	switch key {
	case "file_name", "file_unique_id", "file_size", "mime_type",
		"media_type", "chat_id", "telegraph_url":
		return key, nil
	case "created", "Created":
		return "created", nil
	default:
		return "", NewValidationError(
			"invalid attribute key: %s. Allowed values are %v",
			key,
			searchableAttributes,
		)
	}
}

func parseKey(identifier ValidIdentifier, key string) (string, error) {
	if key == "" {
		return "", NewValidationError("missing key for %s", identifier)
	}

	if identifier == Attribute {
		return parseAttributeKey(key)
	}

	return key, nil
}

func validatedIdentifier(identifier *Identifier) (ValidIdentifier, string, error) {
	validIdentifier, err := parseValidIdentifier(identifier.Identifier)
	if err != nil {
		return -1, "", err
	}

	validKey, err := parseKey(validIdentifier, identifier.Key)
	if err != nil {
		return -1, "", err
	}

	identifier.Key = validKey

	return validIdentifier, validKey, nil
}

/*

The value part is determined by the identifier.

"property" takes strings: mediainfo emits every value as text,
including sizes and durations ("1 920 pixels").

"attribute" takes numbers for file_size, chat_id and created,
strings otherwise.

*/

func validateValue(identifier ValidIdentifier, key string, value Value) (interface{}, error) {
	switch identifier {
	case Property:
		if _, ok := value.(NumberExpr); ok {
			return nil, NewValidationError(
				"expected a quoted string or list of strings for property.%s. Found %s",
				key, value,
			)
		}

		return value.value(), nil
	case Attribute:
		return validateAttributeValue(key, value)
	default:
		return nil, NewValidationError(
			"invalid identifier type %s. Expected %s or %s",
			identifier, attributeIdentifier, propertyIdentifier,
		)
	}
}

func validateAttributeValue(key string, value Value) (interface{}, error) {
	if numericAttributes[key] {
		if _, ok := value.(NumberExpr); !ok {
			return nil, NewValidationError(
				"expected numeric value type for numeric attribute: %s. Found %s",
				key, value,
			)
		}

		return value.value(), nil
	}

	if _, ok := value.(NumberExpr); ok {
		return nil, NewValidationError(
			"expected a quoted string value for attribute %s. Found %s",
			key, value,
		)
	}

	return value.value(), nil
}

func validateOperator(identifier ValidIdentifier, key string, operator OperatorKind) error {
	if operator != Like && operator != ILike {
		return nil
	}

	if identifier == Attribute && numericAttributes[key] {
		return NewValidationError(
			"%s comparisons are not supported for numeric attribute %s",
			operator, key,
		)
	}

	return nil
}

// ValidateExpression type-checks one comparison against the report
// search domain.
func ValidateExpression(expression *CompareExpr) (*ValidCompareExpr, error) {
	validIdentifier, validKey, err := validatedIdentifier(&expression.Left)
	if err != nil {
		return nil, fmt.Errorf("error on parsing filter expression: %w", err)
	}

	if err := validateOperator(validIdentifier, validKey, expression.Operator); err != nil {
		return nil, fmt.Errorf("error on parsing filter expression: %w", err)
	}

	value, err := validateValue(validIdentifier, validKey, expression.Right)
	if err != nil {
		return nil, fmt.Errorf("error on parsing filter expression: %w", err)
	}

	return &ValidCompareExpr{
		Identifier: validIdentifier,
		Key:        validKey,
		Operator:   expression.Operator,
		Value:      value,
	}, nil
}
