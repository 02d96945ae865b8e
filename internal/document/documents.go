package document

// mergedSections are the sections combined key-by-key when both documents
// provide them. The remaining sections (hooks, editors) are replaced
// wholesale by the remote side when it has them.
var mergedSections = []Section{SectionMCP, SectionRules, SectionPrompts, SectionSkills}

// MergeDocuments combines a local document with a remote one. For the merged
// sections, remote wins on key conflict, local-only keys are preserved, and
// remote-only keys are added. The deletion sentinel `false` removes a key: a
// remote sentinel removes the local entry, two sentinels remove the key, and
// an object at the same key always wins over a sentinel.
//
// A section that the remote side does not carry at all is passed through
// untouched, sentinels included. Sentinel filtering happens only when the
// section actually participates in a merge pass. This asymmetry matches the
// observed behavior of the sync pipeline and is pinned by tests.
func MergeDocuments(local, remote Document) Document {
	out := local.Clone()

	for _, section := range mergedSections {
		remoteItems, ok := remote[section]
		if !ok {
			continue
		}
		merged := copySection(out[section])
		if merged == nil {
			merged = make(SectionMap, len(remoteItems))
		}
		for name, item := range remoteItems {
			if item.IsDeleted() {
				delete(merged, name)
				continue
			}
			merged[name] = item
		}
		// The section went through a merge pass, so any surviving local
		// sentinels are filtered out of the result as well.
		for name, item := range merged {
			if item.IsDeleted() {
				delete(merged, name)
			}
		}
		out[section] = merged
	}

	for section, items := range remote {
		if isMergedSection(section) {
			continue
		}
		out[section] = copySection(items)
	}

	return out
}

func isMergedSection(s Section) bool {
	for _, m := range mergedSections {
		if m == s {
			return true
		}
	}
	return false
}

func copySection(items SectionMap) SectionMap {
	if items == nil {
		return nil
	}
	out := make(SectionMap, len(items))
	for name, item := range items {
		out[name] = item
	}
	return out
}

// FilterScopes returns a new document containing only the requested
// top-level sections. Sections absent from the input are omitted from the
// result, not set to empty maps.
func FilterScopes(doc Document, scopes []Section) Document {
	out := make(Document)
	for _, scope := range scopes {
		if items, ok := doc[scope]; ok {
			out[scope] = copySection(items)
		}
	}
	return out
}
