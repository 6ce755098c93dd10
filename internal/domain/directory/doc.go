// Package directory holds the alumni directory read model and the single predicate module
// shared by store-side query building and the client-side presentation filter.
//
// Two matching flavours exist on purpose:
//   - Query.Matches is the server contract: location and company are case-insensitive
//     substring matches and free text also covers major, bio and skills.
//   - Apply is the presentation contract: location is an exact match and the search term
//     only covers name, company, location and job title.
//
// Both use the same company-type keyword table (see Keywords).
package directory
