// backend.go - Registriert alle eingebauten Backends per Blank-Import
package backend

import (
	_ "github.com/yolograph/yolograph/ml/backend/cpu"
)
