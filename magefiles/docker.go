//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Container image constants.
const (
	dockerImageName = "tenderlist"
	dockerImageTag  = "latest"
	dockerfileDir   = "magefiles"
	containerPort   = "8080"
	containerConfig = "/var/lib/tenderlist"
)

// Docker groups container targets.
type Docker mg.Namespace

// containerRuntime returns "podman" or "docker" if a working runtime
// is available, or "" if neither is usable. It checks both that the
// binary exists on PATH and that it can connect to its daemon/machine.
func containerRuntime() string {
	for _, name := range []string{"podman", "docker"} {
		if _, err := exec.LookPath(name); err != nil {
			continue
		}
		if exec.Command(name, "info").Run() != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %s found on PATH but not usable (is the daemon/machine running?)\n", name)
			continue
		}
		return name
	}
	return ""
}

// imageRef returns the full image reference (name:tag).
func imageRef() string {
	return dockerImageName + ":" + dockerImageTag
}

func requireRuntime() (string, error) {
	rt := containerRuntime()
	if rt == "" {
		return "", fmt.Errorf("no container runtime found (tried podman, docker)")
	}
	return rt, nil
}

// Build builds the serve image from magefiles/Dockerfile. The build context
// is the repo root.
func (Docker) Build() error {
	rt, err := requireRuntime()
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Building container image...")
	cmd := exec.Command(rt, "build",
		"-t", imageRef(),
		"-f", filepath.Join(dockerfileDir, "Dockerfile"),
		".")
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Run serves the API from the image, keeping the config directory in a
// named volume.
func (Docker) Run() error {
	mg.Deps(Docker.Build)
	rt, err := requireRuntime()
	if err != nil {
		return err
	}
	cmd := exec.Command(rt, "run", "--rm", "-i",
		"-p", containerPort+":"+containerPort,
		"-v", "tenderlist-config:"+containerConfig,
		"-e", "TENDERLIST_CONFIG_DIR="+containerConfig,
		imageRef())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Clean removes the container image. Errors are ignored because the image
// may not exist.
func (Docker) Clean() {
	rt := containerRuntime()
	if rt == "" {
		return
	}
	fmt.Fprintln(os.Stderr, "Removing container image...")
	_ = exec.Command(rt, "rmi", imageRef()).Run()
}
