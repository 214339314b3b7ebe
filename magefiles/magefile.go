//go:build mage

// Package main provides build targets for the tenderlist project using Mage.
//
// Usage:
//
//	mage build             Compile tenderlist binary to bin/
//	mage init              Seed the config directory with the built binary
//	mage test:all          Run all tests (unit + integration)
//	mage test:unit         Run only unit tests (exclude integration)
//	mage test:integration  Run only integration tests (builds first)
//	mage test:cover        Run unit tests with a coverage profile
//	mage docker:build      Build the serve container image
//	mage docker:run        Run the serve container on port 8080
//	mage lint              Check gofmt and vet, then run golangci-lint
//	mage vet               Run go vet
//	mage fmt               Fail on files that are not gofmt-clean
//	mage clean             Remove build artifacts and cached test results
//	mage cleanBackups      Remove local backup snapshots under config/backups
//	mage install           Install tenderlist with go install
//	mage stats             Print Go LOC and documentation word counts
package main
