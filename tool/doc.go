// Package tool implements the function calling subsystem: the Tool
// interface adapters implement, the static Registry advertised to the model
// and the Dispatcher that executes a requested call and folds every possible
// failure into the uniform result envelope.
package tool
