package main

import "time"

// Flag structs to decouple cobra from logic for testing.

type GlobalFlags struct {
	ConfigPath string
}

type WatchFlags struct {
	Root       string
	AutoDetect bool
	Listen     string
}

type BuildFlags struct {
	Input      string
	CLI        string
	OutputDir  string
	ProjectDir string
	InPlace    bool
}

type RootFlags struct {
	Root       string
	AutoDetect bool
}

type StatusFlags struct {
	APIUrl     string
	APITimeout time.Duration
	Input      string
}
