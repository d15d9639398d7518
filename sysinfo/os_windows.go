//go:build windows
// +build windows

package sysinfo

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const currentVersionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`

// osVersion reports "Windows <major>.<minor>.<build>" from RtlGetVersion,
// which is not subject to the compatibility shims GetVersionEx applies.
func osVersion(logger *slog.Logger) Fact {
	v := windows.RtlGetVersion()
	if v == nil || v.MajorVersion == 0 {
		logger.Debug("RtlGetVersion returned no data")
		if build := getRegistryString(currentVersionKey, "CurrentBuild"); build != "" {
			return Found("Windows " + build)
		}
		return Absent(NotAvailable)
	}
	return Found(fmt.Sprintf("Windows %d.%d.%d", v.MajorVersion, v.MinorVersion, v.BuildNumber))
}

// isServer determines if the current OS is a Windows Server edition.
//
// Detection is based on the InstallationType registry value, falling back to
// the ProductName containing "Server".
func isServer() bool {
	if t := getRegistryString(currentVersionKey, "InstallationType"); t != "" {
		return strings.EqualFold(t, "Server") || strings.EqualFold(t, "Server Core")
	}
	return strings.Contains(strings.ToLower(getRegistryString(currentVersionKey, "ProductName")), "server")
}

// getRegistryString reads a string value below HKEY_LOCAL_MACHINE. Any error
// yields "".
func getRegistryString(path, valueName string) string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer func() { _ = k.Close() }()

	value, _, err := k.GetStringValue(valueName)
	if err != nil {
		return ""
	}
	return value
}
