// Package buildinfo exposes build-time version information.
//
// Values can be injected with ldflags:
//
//	go build -ldflags "-X github.com/Archi470/Todo-Mobile-Application/internal/infra/buildinfo.Version=v1.0.0"
//
// Without ldflags, Version falls back to the module version recorded by
// the Go toolchain and GoVersion to the running runtime.
package buildinfo
