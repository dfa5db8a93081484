// Package models defines the core domain models for wongshare, a backend for
// rotating savings circles (Thai "วงแชร์" / ROSCA).
//
// # Model overview
//
//   - Circle: one rotating-savings group, with its members and rounds
//   - CircleMember: one participant's slot in one circle
//   - ShareRound: one period's draw/collection cycle
//   - Transaction: one contribution payment for a circle+round
//   - Payout: one pot disbursement to a round's winner
//   - User: a registered account (profile, role)
//
// # Design principles
//
//  1. Relationships use ID strings, never pointers, to avoid circular
//     references between aggregates.
//  2. Money fields are decimal.Decimal; amounts are in whole baht with
//     satang precision, never floats.
//  3. Timestamps are Unix seconds; round dates are compared at day
//     granularity by the calculator.
//  4. Status fields are typed string enums so the store and the RPC layer
//     share one vocabulary.
package models
