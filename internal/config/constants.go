package config

import "time"

// Base application details
const AppName = "redline"
const Version = "0.1.0"
const DefaultConfigFileName = "config.toml" // Main config file

// UI Layout
const StatusBarHeight = 1
const DetailPaneHeight = 5

// Status Bar
const MessageTimeout = 4 * time.Second

// These could be moved to NewDefaultConfig(), keeping here for now
const DefaultScrollOff = 3
const DefaultWatchDelay = 200 * time.Millisecond
const SystemClipboard = true
