// Package seeding resolves duplicate seed claims within an event.
//
// Scorer rates a competitor from the seeds they held in other events. Resolver
// groups entrants by claimed seed, keeps the best scored entrant of each
// conflicted group on its seed and moves the others into the unfilled seed
// numbers, then past the highest claimed seed once those run out.
package seeding
