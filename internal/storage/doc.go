// Package storage reads and writes task documents.
//
// A task document is a JSON file:
//
//	{
//	  "version": 2,
//	  "storeId": "0b6c...",
//	  "tasks": [
//	    {
//	      "id": 1,
//	      "description": "Pay rent",
//	      "dueDate": "2024-03-01",
//	      "priority": 5,
//	      "category": "home",
//	      "completed": false,
//	      "notes": "",
//	      "createdDate": "2024-02-20",
//	      "projectGroup": "",
//	      "tags": ["money"],
//	      "recurrence": 4,
//	      "recurrenceRule": {"type": 4, "interval": 1, "daysOfWeek": [], ...},
//	      "subtasks": []
//	    }
//	  ],
//	  "reminders": [{"taskId": 1, "message": "...", "time": "2024-03-01 09:00", "shown": false}],
//	  "templates": [],
//	  "projectGroups": []
//	}
//
// # Recurrence
//
// Older files carry only the integer "recurrence" field (0 = none through
// 6 = yearly). When "recurrenceRule" is absent it is derived from that field
// with an interval of 1. Both fields are written so older readers keep
// working. An unknown discriminant makes that one task or template
// non-recurring and is reported as a load warning.
//
// # File Format
//
// Documents are written with 2-space indentation and a trailing newline,
// through a temporary file that is renamed over the target.
package storage
