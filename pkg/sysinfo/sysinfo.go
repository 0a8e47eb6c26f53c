// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package sysinfo

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// SysUnknown is returned when the host cannot be identified.
var SysUnknown = SysInfo{
	Name:    runtime.GOOS,
	Release: "unknown",
	Version: "unknown",
}

// SysInfo holds the basic operating system details written to reports.
type SysInfo struct {
	Name    string // runtime.GOOS
	Release string // distribution or product name, e.g. "Ubuntu", "macOS"
	Version string // release version or build
}

var detectors = map[string]func() (string, string){
	"linux":   linuxInfo,
	"darwin":  darwinInfo,
	"windows": windowsInfo,
}

// Stat identifies the operating system the process runs on.
func Stat() (*SysInfo, error) {
	info := SysUnknown
	if detect, ok := detectors[runtime.GOOS]; ok {
		info.Release, info.Version = detect()
	}
	return &info, nil
}

func linuxInfo() (string, string) {
	f, err := os.Open("/etc/os-release")
	if err != nil {
		return "unknown", "unknown"
	}
	defer f.Close()

	return parseKeyValues(f, "=", "NAME", "VERSION")
}

func darwinInfo() (string, string) {
	output, err := exec.Command("sw_vers").Output()
	if err != nil {
		return "macOS", "unknown"
	}
	return parseKeyValues(strings.NewReader(string(output)), ":", "ProductName", "ProductVersion")
}

func windowsInfo() (string, string) {
	output, err := exec.Command("cmd", "/c", "ver").Output()
	if err != nil {
		return "Windows", "unknown"
	}
	return "Windows", strings.TrimSpace(string(output))
}

// parseKeyValues scans "key<sep>value" lines, as found in /etc/os-release or
// in the output of sw_vers, and returns the values of nameKey and versionKey.
func parseKeyValues(r io.Reader, sep, nameKey, versionKey string) (string, string) {
	name, version := "unknown", "unknown"

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), sep)
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)

		switch strings.TrimSpace(key) {
		case nameKey:
			name = value
		case versionKey:
			version = value
		}
	}
	return name, version
}
