// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	influx "github.com/influxdata/line-protocol/v2/lineprotocol"

	"github.com/linequad/linequad/pkg/broadnats"
	"github.com/linequad/linequad/pkg/geom"
	"github.com/linequad/linequad/pkg/log"
)

// measurement is the line-protocol measurement name line spawn/update
// events are ingested under: "id"/"color" tags, "p1x,p1y,p2x,p2y,vx,vy"
// fields — mirroring how internal/metricstore/lineprotocol.go maps
// tags/fields onto its own domain types off the same decoder.
const measurement = "line"

// decodeLine reads the tags and fields of a single line-protocol line
// already positioned by a prior d.Next(), following the
// measurement/NextTag/NextField/Time shape of pkg/nats's DecodeInfluxMessage.
func decodeLine(d *influx.Decoder) (geom.Line, error) {
	var line geom.Line

	m, err := d.Measurement()
	if err != nil {
		return line, err
	}
	if string(m) != measurement {
		return line, fmt.Errorf("broadphase: unexpected measurement %q", m)
	}

	for {
		key, value, err := d.NextTag()
		if err != nil {
			return line, err
		}
		if key == nil {
			break
		}
		switch string(key) {
		case "id":
			id, err := strconv.ParseUint(string(value), 10, 32)
			if err != nil {
				return line, fmt.Errorf("broadphase: bad id tag: %w", err)
			}
			line.ID = uint32(id)
		case "color":
			color, err := strconv.ParseUint(string(value), 10, 32)
			if err != nil {
				return line, fmt.Errorf("broadphase: bad color tag: %w", err)
			}
			line.Color = uint32(color)
		}
	}

	fields := map[string]*float64{
		"p1x": &line.P1.X, "p1y": &line.P1.Y,
		"p2x": &line.P2.X, "p2y": &line.P2.Y,
		"vx": &line.Velocity.X, "vy": &line.Velocity.Y,
	}
	for {
		key, value, err := d.NextField()
		if err != nil {
			return line, err
		}
		if key == nil {
			break
		}
		if dst, ok := fields[string(key)]; ok {
			f, ok := value.Interface().(float64)
			if !ok {
				return line, fmt.Errorf("broadphase: field %q is not a float", key)
			}
			*dst = f
		}
	}

	if _, err := d.Time(influx.Nanosecond, time.Time{}); err != nil {
		return line, err
	}

	return line, nil
}

// decodeLines decodes every line-protocol line in data into a geom.Line.
func decodeLines(data []byte) ([]geom.Line, error) {
	d := influx.NewDecoder(bytes.NewReader(data))
	var lines []geom.Line
	for d.Next() {
		line, err := decodeLine(d)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Upsert replaces the line with a matching ID, or appends it if no line
// with that ID is currently tracked — the spawn/update semantics line
// ingestion needs, as opposed to SetLines' wholesale replacement.
//
// The tree indexes lines by ID-as-slice-position (pkg/quadtree/tree.go's
// t.lines[lineID]), so a newly spawned line cannot keep whatever ID it
// arrived with: it must land at e.lines[len(e.lines)]. A spawn whose tag
// doesn't already match that position is renumbered to it; the ID the
// line arrives under is otherwise only meaningful as an update key.
func (e *Engine) Upsert(lines []geom.Line) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, incoming := range lines {
		replaced := false
		for i := range e.lines {
			if e.lines[i].ID == incoming.ID {
				e.lines[i] = incoming
				replaced = true
				break
			}
		}
		if !replaced {
			nextID := uint32(len(e.lines))
			if incoming.ID != nextID {
				log.Warnf("broadphase: spawned line id %d renumbered to %d to match its slice position", incoming.ID, nextID)
				incoming.ID = nextID
			}
			e.lines = append(e.lines, incoming)
		}
	}
	e.tree.SetLines(e.lines)
}

// SubscribeLines wires the engine to the configured NATS lines subject, if
// any. Malformed payloads are logged and dropped rather than killing the
// subscription, matching how metricstore's NATS ingestion tolerates bad
// individual messages.
func SubscribeLines(subject string) error {
	if subject == "" {
		return nil
	}
	client := broadnats.GetClient()
	if client == nil {
		return fmt.Errorf("broadphase: NATS client not connected")
	}

	return client.Subscribe(subject, func(_ string, data []byte) {
		lines, err := decodeLines(bytes.TrimSpace(data))
		if err != nil {
			log.Warnf("broadphase: dropping malformed line update: %v", err)
			return
		}
		GetEngine().Upsert(lines)
	})
}
