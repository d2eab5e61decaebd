package engine

// launchScene triggers the clip at slot i on every channel and the
// master (spec.md §4.7 "Scene buttons"). Scene parameters are edge
// triggers: the caller resets the boolean to false immediately after.
func (e *Engine) launchScene(i int) {
	for _, c := range e.Channels {
		if c.Clips[i] != nil {
			c.Clips[i].Trigger()
		}
	}
	if e.Master.Clips[i] != nil {
		e.Master.Clips[i].Trigger()
	}
}

// StopClips stops every clip on every channel and the master
// (spec.md §6 "stopClips()").
func (e *Engine) StopClips() {
	for _, c := range e.Channels {
		for _, clip := range c.Clips {
			if clip != nil {
				clip.Stop()
			}
		}
	}
	for _, clip := range e.Master.Clips {
		if clip != nil {
			clip.Stop()
		}
	}
}
