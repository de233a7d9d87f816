// Package psutil implements metrics.Source and process.Source with
// gopsutil, for hosts where procfs is unavailable (macOS, Windows, BSD) or
// when the portable backend is requested explicitly.
package psutil
