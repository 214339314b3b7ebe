//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "tenderlist"
	binaryDir  = "bin"
	cmdDir     = "./cmd/tenderlist"

	// localConfigDir is the config directory the binary uses when run from
	// the repo root without TENDERLIST_CONFIG_DIR.
	localConfigDir = "config"
)

func binaryPath() string {
	return filepath.Join(binaryDir, binaryName)
}

// Build compiles the tenderlist binary to bin/ and prints its version.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	if err := sh.RunV(binGo, "build", "-trimpath", "-o", binaryPath(), cmdDir); err != nil {
		return err
	}
	return sh.RunV(binaryPath(), "version")
}

// Clean removes the binary, the coverage profile and cached test results.
func Clean() error {
	for _, path := range []string{binaryDir, coverProfile} {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean", "-testcache")
}

// CleanBackups removes the backup snapshots that local runs leave under
// config/backups. The tables themselves are kept.
func CleanBackups() error {
	dir := filepath.Join(localConfigDir, "backups")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		fmt.Println("No local backups found.")
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	fmt.Printf("Removed %d backup snapshot(s) from %s\n", len(entries), dir)
	return nil
}

// Init seeds the config directory (TENDERLIST_CONFIG_DIR or ./config) and
// moves legacy tables out of the working directory.
func Init() error {
	mg.Deps(Build)
	return sh.RunV(binaryPath(), "init")
}

// Install installs tenderlist into GOBIN (or GOPATH/bin) with go install.
func Install() error {
	if err := sh.RunV(binGo, "install", "-trimpath", cmdDir); err != nil {
		return err
	}
	gobin, err := sh.Output(binGo, "env", "GOBIN")
	if err != nil {
		return err
	}
	if gobin == "" {
		gopath, err := sh.Output(binGo, "env", "GOPATH")
		if err != nil {
			return err
		}
		gobin = filepath.Join(gopath, "bin")
	}
	fmt.Printf("Installed %s\n", filepath.Join(gobin, binaryName))
	return nil
}
