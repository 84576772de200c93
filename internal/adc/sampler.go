package adc

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/fitodd-23707/adc-display/internal/logic"
)

// Sampler is the single writer of the shared reading. It re-arms a new
// conversion as soon as the previous one completes and keeps only the latest
// result; slow readers simply miss intermediate samples.
type Sampler struct {
	conv     Converter
	reading  *logic.Reading
	interval time.Duration
	onSample func(uint8)

	samples atomic.Uint64
	errors  atomic.Uint64
	failing bool
}

// NewSampler creates a sampler publishing into reading. An interval of 0 runs
// conversions back to back; a positive interval paces them.
func NewSampler(conv Converter, reading *logic.Reading, interval time.Duration) *Sampler {
	return &Sampler{conv: conv, reading: reading, interval: interval}
}

// OnSample registers a hook called after every completed conversion, once the
// new value is visible in the reading. It must not block. Set before Run.
func (s *Sampler) OnSample(fn func(uint8)) {
	s.onSample = fn
}

// Run samples until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	var pace *time.Ticker
	if s.interval > 0 {
		pace = time.NewTicker(s.interval)
		defer pace.Stop()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.Step()

		if pace != nil {
			select {
			case <-ctx.Done():
				return
			case <-pace.C:
			}
		}
	}
}

// Step runs one conversion and publishes it. A failed conversion leaves the
// previous reading in place.
func (s *Sampler) Step() {
	v, err := s.conv.Convert()
	if err != nil {
		s.errors.Add(1)
		if !s.failing {
			log.Printf("adc: conversion failed, holding last reading %d: %v", s.reading.Load(), err)
			s.failing = true
		}
		return
	}
	if s.failing {
		log.Printf("adc: conversions recovered")
		s.failing = false
	}

	s.reading.Store(v)
	s.samples.Add(1)
	if s.onSample != nil {
		s.onSample(v)
	}
}

// Samples returns the number of completed conversions. Safe for concurrent use.
func (s *Sampler) Samples() uint64 {
	return s.samples.Load()
}

// Errors returns the number of failed conversions. Safe for concurrent use.
func (s *Sampler) Errors() uint64 {
	return s.errors.Load()
}
