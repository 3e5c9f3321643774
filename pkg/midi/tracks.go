package midi

// Concat chains the tracks one after the other in file order.
// Deltas are left untouched, so each track starts where the previous one ended.
func Concat(tracks []*Track) []TrackEvent {
	var n int
	for _, t := range tracks {
		n += len(t.Events)
	}

	events := make([]TrackEvent, 0, n)
	for _, t := range tracks {
		events = append(events, t.Events...)
	}
	return events
}

// Merge interleaves the tracks by absolute time and recomputes deltas against the merged stream.
// Events at the same time keep track order.
func Merge(tracks []*Track) []TrackEvent {
	// next event index and absolute time of the last consumed event, per track
	pos := make([]int, len(tracks))
	at := make([]uint64, len(tracks))

	var events []TrackEvent
	var now uint64

	for {
		earliest := -1
		var earliestTime uint64

		for i, t := range tracks {
			if pos[i] >= len(t.Events) {
				continue
			}
			tm := at[i] + uint64(t.Events[pos[i]].Delta)
			if earliest < 0 || tm < earliestTime {
				earliest = i
				earliestTime = tm
			}
		}

		if earliest < 0 {
			return events
		}

		ev := tracks[earliest].Events[pos[earliest]]
		ev.Delta = uint32(earliestTime - now)
		events = append(events, ev)

		now = earliestTime
		pos[earliest]++
		at[earliest] = earliestTime
	}
}
