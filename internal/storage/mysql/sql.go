package mysql

// A request is processed once; a replayed request id keeps the first outcome.
const insertOutcomeSQL = `
INSERT INTO booking_outcomes
  (request_id, room_number, guest, outcome, reason, processed_at)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE request_id = request_id
`

const listOutcomesByRoomSQL = `
SELECT request_id, room_number, guest, outcome, reason, processed_at
FROM booking_outcomes
WHERE room_number = ?
ORDER BY processed_at DESC, id DESC
LIMIT ?
`

const countOutcomesSQL = `
SELECT outcome, COUNT(*)
FROM booking_outcomes
GROUP BY outcome
`
