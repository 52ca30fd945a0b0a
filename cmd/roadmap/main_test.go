package main

import (
	"errors"
	"testing"

	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/stretchr/testify/assert"
)

type closingRoadmap struct {
	service.RoadmapService
	err    error
	closed bool
}

func (c *closingRoadmap) Close() error {
	c.closed = true
	return c.err
}

func TestCloseRoadmap_ReportsFailedFlush(t *testing.T) {
	roadmap := &closingRoadmap{err: errors.New("disk full")}
	var err error

	closeRoadmap(roadmap, &err)

	assert.True(t, roadmap.closed)
	assert.ErrorContains(t, err, "writing roadmap on exit: disk full")
}

func TestCloseRoadmap_KeepsCommandError(t *testing.T) {
	roadmap := &closingRoadmap{err: errors.New("disk full")}
	err := errors.New("unknown phase")

	closeRoadmap(roadmap, &err)

	assert.EqualError(t, err, "unknown phase")
}

func TestCloseRoadmap_CleanExit(t *testing.T) {
	roadmap := &closingRoadmap{}
	var err error

	closeRoadmap(roadmap, &err)

	assert.NoError(t, err)
}
