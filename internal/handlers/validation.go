package handlers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// formatBindingError 将绑定错误转成可读的法文提示
func formatBindingError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Données de requête invalides"
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := strings.ToLower(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("le champ '%s' est requis", field))
		case "email":
			messages = append(messages, fmt.Sprintf("le champ '%s' doit être un email valide", field))
		case "min":
			messages = append(messages, fmt.Sprintf("le champ '%s' doit être au moins %s", field, fieldError.Param()))
		case "gt":
			messages = append(messages, fmt.Sprintf("le champ '%s' doit être supérieur à %s", field, fieldError.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("le champ '%s' doit être parmi: %s", field, fieldError.Param()))
		default:
			messages = append(messages, fmt.Sprintf("le champ '%s' est invalide", field))
		}
	}
	return strings.Join(messages, "; ")
}
