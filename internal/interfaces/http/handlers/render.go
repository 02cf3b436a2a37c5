// internal/interfaces/http/handlers/render.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/your-org/gamestore/internal/interfaces/http/middleware"
)

// SessionView is what every page knows about the visitor
type SessionView struct {
	LoggedIn bool
	Username string
	IsAdmin  bool
}

func sessionView(c *gin.Context) SessionView {
	claims := middleware.SessionFromContext(c)
	if !claims.Authenticated() {
		return SessionView{}
	}
	return SessionView{LoggedIn: true, Username: claims.Username, IsAdmin: claims.IsAdmin}
}

// render executes a page with the fields the layout expects filled in
func render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Session"] = sessionView(c)
	for _, key := range []string{"Title", "Error", "Success"} {
		if _, ok := data[key]; !ok {
			data[key] = ""
		}
	}
	c.HTML(status, page, data)
}

// renderError shows a plain message page
func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error.html", gin.H{"Title": http.StatusText(status), "Error": message})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// fieldFailed reports whether a binding error includes the given rule on field
func fieldFailed(err error, field, tag string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Field() == field && fe.Tag() == tag {
			return true
		}
	}
	return false
}

// bindingMessage turns the first failed binding rule into a form message
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request data"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "email":
		return "Please enter a valid email address."
	case "numeric":
		return fmt.Sprintf("%s must be a number.", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s.", fe.Field(), lengthOrValue(fe))
	case "max":
		return fmt.Sprintf("%s must be at most %s.", fe.Field(), lengthOrValue(fe))
	default:
		return fmt.Sprintf("%s is not valid.", fe.Field())
	}
}

func lengthOrValue(fe validator.FieldError) string {
	if fe.Kind() == reflect.String {
		return fe.Param() + " characters"
	}
	return fe.Param()
}
