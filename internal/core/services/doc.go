// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// AskService is the answer pipeline; IngestService serialises writes
// per memoir. Services are pure Go with no CGO or external dependencies.
package services
