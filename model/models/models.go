// Package models registriert alle eingebauten Architekturen bei model.Register
package models

import (
	_ "github.com/yolograph/yolograph/model/models/yolov3"
)
