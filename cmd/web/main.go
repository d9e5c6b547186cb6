// @title           Contacts API
// @version         1.0
// @description     Адресная книга с днями рождения: авторизация по JWT, контакты, админка пользователей.
// @host            localhost:8000
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "contacts_backend/internal/app"

func main() {
	app.Run()
}
