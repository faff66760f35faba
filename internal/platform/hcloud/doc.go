// Package hcloud wraps the Hetzner Cloud API behind narrow per-concern
// interfaces so the provisioning logic can be tested against fakes.
//
// RealClient implements every interface against the live API with
// env-configurable timeouts and exponential backoff for transient errors.
// MockClient provides a function-field fake for tests.
package hcloud
