// @title          Evenzaa API
// @version        1.0
// @description    Events and session-token authentication API.
// @BasePath       /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Session token issued by /jwt/login, sent as "Bearer <token>".
package main

import "github.com/evenzaa/events-api/cmd/evenzaa/cmd"

func main() {
	cmd.Execute()
}
