package main

// General API documentation for swaggo. Regenerate internal/docs with:
//
//	swag init -g cmd/intentd/docs.go -o internal/docs
//
// @title           intentd API
// @version         1.0
// @description     Intent classification chat service: classify a message, extract entities, generate a reply.
//
// @contact.name   intentd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
