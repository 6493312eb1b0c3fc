// package launcher bootstraps the Python mapper backend.
//
// A run checks for a Python 3 interpreter, creates the backend virtual environment when it is missing,
// installs requirements with the venv's pip, runs the browser.json auth setup script when no credentials
// exist yet, and finally runs the server script attached to the terminal.
//
// Nothing on disk is touched until an interpreter has been found.
package launcher
