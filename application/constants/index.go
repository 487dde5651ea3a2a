package constants

// vericlass response codes
// these consist of 4 digit numbers
//
// the 1st 3 are randomly generated but represent specific scenarios
// 4th indicates if the response requires user interaction through a dialog box. 0 means it does not require. 1 means it requires.

var SESSION_EXPIRED uint = 4410                 // restart the verification flow from the beginning
var FACE_NOT_ENROLLED uint = 7121               // take the user to the face enrollment page
var VERIFICATION_IN_PROGRESS uint = 2830        // keep streaming frames, no action needed
var VERIFICATION_MATCHED uint = 2900            // proceed to the attendance scan page
var VERIFICATION_FAILED uint = 2911             // show the retry dialog
var ATTENDANCE_ALREADY_RECORDED uint = 6221     // show the "already marked" dialog
var ATTENDANCE_OUTSIDE_TIME_WINDOW uint = 6231  // show the class schedule dialog
var ATTENDANCE_OUTSIDE_GEOFENCE uint = 6241     // show the "move closer" dialog
var ATTENDANCE_LOCATION_UNAVAILABLE uint = 6251 // tell the user to contact the lecturer

var ATTENDANCE_STATUS_PRESENT = "present"

var SUPPORT_EMAIL = "help@vericlass.io"
