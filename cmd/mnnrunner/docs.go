package main

// General API documentation for swaggo. Regenerate the docs package with
// `swag init -g cmd/mnnrunner/docs.go -o docs`.
//
// @title           mnnrunner API
// @version         1.0
// @description     HTTP bridge for probing MNN backends and running MNN models.
//
// @contact.name   mnnrunner maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
