package storeapi

import "github.com/labstack/echo/v4"

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

type apiEnvelope struct {
	Data  interface{} `json:"data,omitempty"`
	Error *errorBody  `json:"error,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(200, apiEnvelope{Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, apiEnvelope{Error: &errorBody{Code: code, Message: message, Detail: detail}})
}
