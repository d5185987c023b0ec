// Package harness provides conformance testing for temporal filters.
//
// A scenario loads observations into a fresh in-memory store, then runs a
// sequence of steps. Each step compiles a filter set, queries the store and
// checks the matching observation IDs, or the rejection kind, against the
// step's expectation.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	catalog: fields.cue            # optional, relative to the scenario file
//	observations:
//	  - id: obs-a                  # optional, generated when empty
//	    procedure: p1
//	    observedProperty: temp
//	    phenomenonTime: 2013-07-18T00:00:00Z/2013-07-18T01:00:00Z
//	    resultTime: 2013-07-18T02:00:00Z
//	series:
//	  - procedure: p2
//	    observedProperty: temp
//	    start: 2013-07-18T00:00:00Z
//	    step: 10m
//	    count: 6
//	steps:
//	  - name: during the first hour
//	    filters:
//	      - relation: During
//	        valueReference: om:phenomenonTime
//	        time: 2013-07-18T00:00:00Z/2013-07-18T01:00:00Z
//	    kvp:
//	      - resultTime,2013-07-18T00:00:00Z/2013-07-18T03:00:00Z
//	    expect:
//	      ids: [obs-a]
//	  - name: meets is undefined on result time
//	    filters:
//	      - relation: Meets
//	        valueReference: resultTime
//	        time: 2013-07-18T00:00:00Z
//	    expect:
//	      error: UNSUPPORTED_TIME
//
// Series entries generate instantaneous observations spaced step apart.
//
// # Deterministic Testing
//
// Generated IDs are sequential ("obs-0001", "obs-0002", ...) in insertion
// order: explicit observations first, then series. Query results are ordered
// by phenomenon time and ID, so step results are stable across runs and can
// be compared against golden files with RunWithGolden.
package harness
