package mysql

const insertHotelSQL = `
INSERT INTO hotels
  (name, description, address, city, email, phone, owner_id, images)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const hotelColumns = `
  id, name, description, address, city, email, phone, owner_id, images, created_at, updated_at`

const getHotelSQL = `
SELECT` + hotelColumns + `
FROM hotels
WHERE id = ?
`

const listHotelsSQL = `
SELECT` + hotelColumns + `
FROM hotels
ORDER BY id
`

// Case-insensitive substring match on city. utf8mb4 collation already
// compares case-insensitively; LOWER keeps it explicit and portable.
const searchHotelsSQL = `
SELECT` + hotelColumns + `
FROM hotels
WHERE LOWER(city) LIKE CONCAT('%', LOWER(?), '%')
ORDER BY id
`

const insertRoomSQL = `
INSERT INTO rooms
  (hotel_id, room_type, description, capacity, nightly_price, total_rooms, remaining_rooms, amenities, images)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const roomColumns = `
  id, hotel_id, room_type, description, capacity, nightly_price, total_rooms, remaining_rooms, amenities, images, created_at, updated_at`

const getRoomSQL = `
SELECT` + roomColumns + `
FROM rooms
WHERE id = ?
`

const listRoomsSQL = `
SELECT` + roomColumns + `
FROM rooms
WHERE hotel_id = ?
ORDER BY id
`

// Guarded counter write. Zero rows affected means the guard failed:
// either the row is gone or another writer moved the counter first.
const casRemainingSQL = `
UPDATE rooms
SET remaining_rooms = ?
WHERE id = ? AND remaining_rooms = ?
`

const roomExistsSQL = `SELECT 1 FROM rooms WHERE id = ?`

const insertBookingSQL = `
INSERT INTO bookings
  (hotel_id, room_id, first_name, last_name, guests, rooms, check_in, check_out, status, contact_email, contact_phone)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const bookingColumns = `
  id, hotel_id, room_id, first_name, last_name, guests, rooms, check_in, check_out, status, contact_email, contact_phone, created_at, updated_at`

const getBookingSQL = `
SELECT` + bookingColumns + `
FROM bookings
WHERE id = ?
`

const updateBookingStatusSQL = `
UPDATE bookings
SET status = ?
WHERE id = ?
`

const bookingExistsSQL = `SELECT 1 FROM bookings WHERE id = ?`

// Bookings joined with their hotel and room for display. Filter
// conditions are appended by the repo.
const listBookingsSQL = `
SELECT
  b.id, b.hotel_id, b.room_id,
  b.first_name, b.last_name, b.guests, b.rooms,
  b.check_in, b.check_out, b.status,
  b.contact_email, b.contact_phone,
  b.created_at, b.updated_at,
  h.name, h.city,
  r.room_type, r.nightly_price
FROM bookings b
JOIN hotels h ON h.id = b.hotel_id
JOIN rooms  r ON r.id = b.room_id
`
