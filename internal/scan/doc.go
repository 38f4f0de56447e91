// Package scan provides radio scan sources and the Observation data model.
// Each source produces a fresh snapshot of visible wireless networks per
// scan cycle plus the SSID of the currently associated network. The advisor
// engine derives quality scores and switch recommendations from these
// snapshots.
//
// Implemented sources: NetworkManager via nmcli (nmcli.go) and a YAML
// fixture file (static.go). Factory: New(config.ScannerConfig) returns the
// correct Source.
//
// Observations are normalized before they leave this package: hidden
// networks get a placeholder SSID and a stable fingerprint identity,
// duplicate identities within one snapshot keep the strongest signal.
package scan
