// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jeranaias/gridterm/internal/config"
)

// =============================================================================
// SYSTEM CHECKS
// =============================================================================

// Check statuses.
const (
	StatusChecking = "checking"
	StatusPass     = "pass"
	StatusWarn     = "warn"
	StatusFail     = "fail"
)

// GeminiEndpoint is dialed by the network check.
const GeminiEndpoint = "generativelanguage.googleapis.com:443"

// minFreeBytes covers a full set of rotated log files.
const minFreeBytes = 64 << 20

// CheckResult represents a system check result
type CheckResult struct {
	Name    string
	Status  string
	Message string
	Fix     string
}

// Check is one named preflight check.
type Check struct {
	Name string
	Run  func() CheckResult
}

// defaultChecks returns the checks for a config written under dir.
func defaultChecks(dir string) []Check {
	return []Check{
		{Name: "Operating System", Run: checkOS},
		{Name: "Config Directory", Run: func() CheckResult { return checkConfigDir(dir) }},
		{Name: "API Key", Run: checkEnvKey},
		{Name: "Network Access", Run: func() CheckResult { return checkNetwork(GeminiEndpoint, 3*time.Second) }},
		{Name: "Disk Space", Run: func() CheckResult { return checkDisk(dir) }},
	}
}

func checkOS() CheckResult {
	return CheckResult{
		Name:    "Operating System",
		Status:  StatusPass,
		Message: fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func checkConfigDir(dir string) CheckResult {
	res := CheckResult{Name: "Config Directory"}
	if err := os.MkdirAll(dir, 0700); err != nil {
		res.Status = StatusFail
		res.Message = err.Error()
		res.Fix = "Use --config to pick a writable location"
		return res
	}
	f, err := os.CreateTemp(dir, ".gridterm-write-*")
	if err != nil {
		res.Status = StatusFail
		res.Message = "Not writable: " + err.Error()
		res.Fix = "Use --config to pick a writable location"
		return res
	}
	name := f.Name()
	f.Close()
	os.Remove(name)

	res.Status = StatusPass
	res.Message = dir
	return res
}

func checkEnvKey() CheckResult {
	res := CheckResult{Name: "API Key"}
	for _, env := range []string{config.EnvAPIKey, config.EnvGeminiAPIKey} {
		if os.Getenv(env) != "" {
			res.Status = StatusPass
			res.Message = "Found " + env + " in the environment"
			return res
		}
	}
	res.Status = StatusWarn
	res.Message = "No key in the environment"
	res.Fix = "Enter one in the next step"
	return res
}

func checkNetwork(addr string, timeout time.Duration) CheckResult {
	res := CheckResult{Name: "Network Access"}
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		res.Status = StatusWarn
		res.Message = "Cannot reach " + addr
		res.Fix = "Queries will fail until the network is up"
		return res
	}
	conn.Close()
	res.Status = StatusPass
	res.Message = "Reached " + addr
	return res
}

func checkDisk(dir string) CheckResult {
	res := CheckResult{Name: "Disk Space"}

	// Walk up to a directory that exists.
	for {
		if _, err := os.Stat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	free, err := getFreeDiskSpace(dir)
	if err != nil {
		res.Status = StatusWarn
		res.Message = "Could not measure: " + err.Error()
		return res
	}
	if free < minFreeBytes {
		res.Status = StatusWarn
		res.Message = fmt.Sprintf("%s free", formatBytes(free))
		res.Fix = "Logs rotate at 10MB and keep 5 backups"
		return res
	}
	res.Status = StatusPass
	res.Message = fmt.Sprintf("%s free", formatBytes(free))
	return res
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
