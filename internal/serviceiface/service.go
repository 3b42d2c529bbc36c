// Package serviceiface defines the lifecycle contract every long-running
// service (logger, report, cron, gateway) implements for the app manager.
package serviceiface

type Service interface {
	Name() string
	Start() error
	Stop() error
}
