// config_features.go - Modell-Defaults
//
// Dieses Modul enthaelt Defaults, die greifen wenn weder Aufrufer
// noch [net]-Block einen Wert liefern, sowie den Dump-Schalter.
package envconfig

// =============================================================================
// Modell-Defaults
// =============================================================================

var (
	// NumClasses setzt die Standard-Anzahl der Objektklassen
	// 0 bedeutet: Wert aus dem yolo-Block uebernehmen
	NumClasses = Uint("YOLOGRAPH_NUM_CLASSES", 0)

	// BatchSize setzt die Batch-Groesse des Eingabe-Tensors
	BatchSize = Uint("YOLOGRAPH_BATCH_SIZE", 1)

	// Dump gibt nach einem Vorwaertsdurchlauf den Ausgabe-Tensor aus
	Dump = Bool("YOLOGRAPH_DUMP")
)
