// Command agriadmin serves the AgriBizBoost admin API.
package main

import (
	"context"
	"log"

	"github.com/agribizboost/agriadmin/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
