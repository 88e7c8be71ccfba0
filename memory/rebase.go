package memory

// Rebase converts pc, a direct pointer formed against the cached *base, into a
// direct pointer against the base of the page the logical address falls in,
// and caches that base. Within one page, direct pointer arithmetic is then
// logical address arithmetic offset by a constant.
func (m *Map) Rebase(base *uintptr, pc uintptr) uintptr {
	logical := uint32(pc - *base)
	*base = m.pages[PageOf(logical)].base
	return uintptr(logical) + *base
}

// Logical recovers the logical address of a direct pointer.
func Logical(base, pc uintptr) uint32 {
	return uint32(pc - base)
}
