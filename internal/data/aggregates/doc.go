// Package aggregates implements the transactional mutation coordinators for
// learner state: exercise completions (rating + XP) and ladder progression
// (lesson passes, channel selection, certification, badges). Every write
// method re-reads learner rows and organization feature flags inside the same
// transaction it writes in.
package aggregates
