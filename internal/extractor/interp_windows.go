//go:build windows

package extractor

func defaultInterpreter() string { return "python" }
