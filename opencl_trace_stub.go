//go:build !opencl

package main

import "errors"

type openCLTraceKernel struct{}

func newOpenCLTraceKernel(width, height int, _ *skybox) (*openCLTraceKernel, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (k *openCLTraceKernel) Trace(p *frameParams, sampleIndex uint32, dst []float32) error {
	return errors.New("OpenCL kernel unavailable")
}

func (k *openCLTraceKernel) Resize(width, height int) error {
	return errors.New("OpenCL kernel unavailable")
}

func (k *openCLTraceKernel) Close() {}

func (k *openCLTraceKernel) DeviceName() string { return "" }
