package main

import "pipecrm/internal/app"

// @title           PipeCRM API
// @version         1.0
// @description     REST API воронки продаж: лиды, контакты, компании, сделки, активности, отчёты.
// @BasePath        /api
func main() {
	app.Run()
}
