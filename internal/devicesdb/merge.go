package devicesdb

// Merge folds scratch into db per spec.md §4.4's commit rule: interfaces,
// icons, and name_of_hash are merged key-by-key (scratch wins on
// collision, since the parser has already validated redeclaration
// consistency before allowing this call); labels replace-on-key; devices
// move-assign (scratch's map entries are adopted directly — scratch is
// not reused after a successful commit, so no copy is needed).
//
// Merge must only be called after a full parse stream has succeeded; the
// caller is responsible for discarding scratch untouched on any failure,
// which is what makes the overall parse transactional.
func (db *DB) Merge(scratch *DB) {
	for h, iface := range scratch.Interfaces {
		db.Interfaces[h] = iface
	}
	for h, glyph := range scratch.Icons {
		db.Icons[h] = glyph
	}
	for h, name := range scratch.NameOfHash {
		db.NameOfHash[h] = name
	}
	for h, preset := range scratch.Labels {
		db.Labels[h] = preset
	}
	for ids, data := range scratch.Devices {
		db.Devices[ids] = data
	}
}
