// cmd/main.go
package main

import (
	"caltracker-api/app"
)

// @title           CalTracker API
// @version         1.0
// @description     Nutrition tracking API: users, foods, consumption logging and day/week/month totals.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
